package accounts

import "github.com/coursehub/account-service/internal/core/pipeline"

func newLoginValidator() pipeline.Validator {
	return pipeline.NewStructValidator(pipeline.Messages{
		"email.required":    "Email is required.",
		"email.email":       "A valid email address is required.",
		"password.required": "Password is required.",
		"password.min":      "Password must be at least 6 characters long.",
	})
}

func newRegisterValidator() pipeline.Validator {
	return pipeline.NewStructValidator(pipeline.Messages{
		"full_name.notblank": "Full name is required.",
		"username.notblank":  "Username is required.",
		"email.required":     "Email is required.",
		"email.email":        "A valid email is required.",
		"password.required":  "Password is required.",
		"password.min":       "Password must be at least 6 characters long.",
		"degree.notblank":    "Degree is required.",
	})
}
