package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID         int64  `json:"id"`
	EmployeeID *int64 `json:"employee_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

func toAuthResponse(u *User) AuthResponse {
	return AuthResponse{
		ID:         u.ID,
		EmployeeID: u.EmployeeID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
	}
}
