package auth

type TokenRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	EmployeeID  string `json:"employee_id"`
	Role        string `json:"role"`
}
