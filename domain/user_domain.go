package domain

import "errors"

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetProfile       = "success get profile"
	MessageSuccessUpdateProfile    = "profile updated successfully"
	MessageSuccessSetPassword      = "password changed successfully"
	MessageSuccessForgotPassword   = "reset password email sent"
	MessageSuccessResetPassword    = "password reset successfully"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetProfile       = "failed to get profile"
	MessageFailedUpdateProfile    = "failed to update profile"
	MessageFailedSetPassword      = "failed to change password"
	MessageFailedForgotPassword   = "failed to send reset password email"
	MessageFailedResetPassword    = "failed to reset password"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrCredentialsInvalid    = errors.New("invalid email or password")
	ErrPasswordInvalid       = errors.New("current password is incorrect")
	ErrSubscribeToSelf       = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed     = errors.New("already subscribed to this author")
	ErrNotSubscribed         = errors.New("not subscribed to this author")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=250"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string      `json:"token"`
		User  UserProfile `json:"user"`
	}

	UpdateProfileRequest struct {
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
		Avatar    string `json:"avatar" validate:"omitempty"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	// UserProfile is the public author representation embedded in recipe
	// projections and subscription listings.
	UserProfile struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		AvatarURL    string `json:"avatar_url,omitempty"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// SubscriptionResponse is an author profile extended with a minified
	// slice of their recipes.
	SubscriptionResponse struct {
		UserProfile
		Recipes      []RecipeMinified `json:"recipes"`
		RecipesCount int64            `json:"recipes_count"`
	}

	SubscriptionsListResponse struct {
		Subscriptions []SubscriptionResponse `json:"subscriptions"`
		Total         int64                  `json:"total"`
	}
)
