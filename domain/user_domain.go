package domain

import "fmt"

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessGetUsers       = "success get users"
	MessageSuccessGetUser        = "success get user"
	MessageSuccessUpdateAvatar   = "avatar updated successfully"
	MessageSuccessSubscribe      = "subscribed successfully"
	MessageSuccessGetSubscribers = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUsers         = "failed to get users"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedUpdateAvatar     = "failed to update avatar"
	MessageFailedDeleteAvatar     = "failed to delete avatar"
	MessageFailedSetPassword      = "failed to change password"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrUsernameTaken      = fmt.Errorf("%w: username already taken", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrValidation)
	ErrWrongPassword      = fmt.Errorf("%w: current password is incorrect", ErrValidation)
	ErrSamePassword       = fmt.Errorf("%w: new password must differ from the current one", ErrValidation)
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID        uint   `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}

	AvatarRequest struct {
		Avatar string `json:"avatar" validate:"required"`
	}

	AvatarResponse struct {
		Avatar string `json:"avatar"`
	}

	UserProfile struct {
		ID           uint   `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
		Avatar       string `json:"avatar"`
	}

	// UserWithRecipes is the author profile returned by the subscribe toggle
	// and the subscriptions listing.
	UserWithRecipes struct {
		UserProfile
		Recipes      []RecipeShort `json:"recipes"`
		RecipesCount int64         `json:"recipes_count"`
	}

	UserListResponse struct {
		Users      []UserProfile `json:"users"`
		Pagination Pagination    `json:"pagination"`
	}

	SubscriptionListResponse struct {
		Users      []UserWithRecipes `json:"users"`
		Pagination Pagination        `json:"pagination"`
	}
)
