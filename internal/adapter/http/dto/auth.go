package dto

type SignupRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email,max=254"`
	FirstName string `json:"first_name" binding:"omitempty,max=150"`
	LastName  string `json:"last_name" binding:"omitempty,max=150"`
}

type SignupResponse struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	User    UserItem `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

type ChangePasswordRequest struct {
	OldPassword *string `json:"old_password"`
	NewPassword string  `json:"new_password" binding:"required"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}
