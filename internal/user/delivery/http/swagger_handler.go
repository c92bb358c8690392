package http

// LoginDoc godoc
// @Summary Log in
// @Description Exchange demo credentials for a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,message=string,data=object{token=string,user=object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /auth/login [post]
func (h *UserHandler) LoginDoc() {}

// GetProfileDoc godoc
// @Summary Current user
// @Description Return the account behind the bearer token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{id=string,name=string,email=string,role=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /auth/me [get]
func (h *UserHandler) GetProfileDoc() {}
