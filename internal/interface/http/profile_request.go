package handlers

import "github.com/anycompany/carmarket/internal/application"

// createProfileRequest is the body of every account-creating endpoint; the avatar comes as multipart field "file".
type createProfileRequest struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,pwd"`
	FirstName   string `json:"firstName" form:"firstName" binding:"omitempty,max=100,noprofanity"`
	LastName    string `json:"lastName" form:"lastName" binding:"omitempty,max=100,noprofanity"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" binding:"omitempty,phone"`
	City        string `json:"city" form:"city" binding:"omitempty,max=100"`
}

func (r createProfileRequest) input(avatar *application.File) application.CreateProfileInput {
	return application.CreateProfileInput{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.PhoneNumber,
		City:      r.City,
		Avatar:    avatar,
	}
}

type updateProfileRequest struct {
	Email       *string `json:"email" form:"email" binding:"omitempty,email"`
	Password    *string `json:"password" form:"password" binding:"omitempty,pwd"`
	FirstName   *string `json:"firstName" form:"firstName" binding:"omitempty,max=100,noprofanity"`
	LastName    *string `json:"lastName" form:"lastName" binding:"omitempty,max=100,noprofanity"`
	PhoneNumber *string `json:"phoneNumber" form:"phoneNumber" binding:"omitempty,phone"`
	City        *string `json:"city" form:"city" binding:"omitempty,max=100"`
}

func (r updateProfileRequest) input(avatar *application.File) application.UpdateProfileInput {
	return application.UpdateProfileInput{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.PhoneNumber,
		City:      r.City,
		Avatar:    avatar,
	}
}
