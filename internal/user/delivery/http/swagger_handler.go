package http

// AddFavorite godoc
// @Summary Add a favorite
// @Description Add a sneaker to a user's favorites; adding an existing pair reports already_exists
// @Tags Favorites
// @Accept json
// @Produce json
// @Param request body object{user_id=int,sneaker_id=int} true "Favorite pair"
// @Success 200 {object} object{status=string,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/favorites [post]
func (h *UserHandler) AddFavoriteDoc() {}

// RemoveFavorite godoc
// @Summary Remove a favorite
// @Description Remove a sneaker from a user's favorites
// @Tags Favorites
// @Produce json
// @Param user_id path int true "User ID"
// @Param sneaker_id path int true "Sneaker ID"
// @Success 200 {object} object{status=string,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/favorites/{user_id}/{sneaker_id} [delete]
func (h *UserHandler) RemoveFavoriteDoc() {}

// ListFavorites godoc
// @Summary List a user's favorites
// @Tags Favorites
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} object{user_id=int,favorited_sneaker_ids=[]int}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/favorites/{user_id} [get]
func (h *UserHandler) ListFavoritesDoc() {}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "Registration data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/auth/register [post]
func (h *UserHandler) RegisterDoc() {}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password, returns a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,message=string,data=object{user=object,token=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/auth/login [post]
func (h *UserHandler) LoginDoc() {}
