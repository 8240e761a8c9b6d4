package dto

import "github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"

// RegisterRequest mirrors the sign-up form. Age and dob are both optional.
type RegisterRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Age       FlexInt `json:"age"`
	DOB       string  `json:"dob"`
	City      string  `json:"city"`
	Location  string  `json:"location"`
	Phone1    string  `json:"phone1"`
	Phone2    string  `json:"phone2"`
	PhoneMem1 string  `json:"phonemem1"`
	PhoneMem2 string  `json:"phonemem2"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Age       FlexInt `json:"age"`
	DOB       *string `json:"dob"`
	City      *string `json:"city"`
	Location  *string `json:"location"`
	Phone1    *string `json:"phone1"`
	Phone2    *string `json:"phone2"`
	PhoneMem1 *string `json:"phonemem1"`
	PhoneMem2 *string `json:"phonemem2"`
}

type UserResponse struct {
	Status string       `json:"status"`
	User   *models.User `json:"user"`
}
