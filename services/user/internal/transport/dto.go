package transport

type LoginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Username string `json:"username"`
	Rol      string `json:"rol"`
	Mensaje  string `json:"mensaje"`
	Token    string `json:"token"`
}

type ChangePasswordRequest struct {
	Username            string `json:"username"`
	ContrasenaActual    string `json:"contrasenaActual"`
	ContrasenaNueva     string `json:"contrasenaNueva"`
	ConfirmarContrasena string `json:"confirmarContrasena"`
}

type ChangeUsernameRequest struct {
	NuevoUsername string `json:"nuevoUsername"`
}

type RolRef struct {
	ID uint `json:"id"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Correo   string `json:"correo"`
	Rol      RolRef `json:"rol"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Correo   string `json:"correo"`
	Rol      RolRef `json:"rol"`
}

type RequestResetRequest struct {
	Correo string `json:"correo"`
}

type ResetPasswordRequest struct {
	Correo              string `json:"correo"`
	Codigo              string `json:"codigo"`
	NuevaContrasena     string `json:"nuevaContrasena"`
	ConfirmarContrasena string `json:"confirmarContrasena"`
}
