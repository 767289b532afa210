package accounthandler

type CredentialsBody struct {
	Username string `json:"username" binding:"required,max=100" example:"alice"`
	Password string `json:"password" binding:"required"         example:"s3cret"`
} // @name CredentialsRequest

type SignupResponse struct {
	Status   string `json:"status"   example:"success"`
	Username string `json:"username" example:"alice"`
} // @name SignupResponse

type LoginResponse struct {
	Status   string `json:"status"   example:"success"`
	Username string `json:"username" example:"alice"`
	UserID   int64  `json:"user_id"  example:"1"`
} // @name LoginResponse
