package form

import (
	"regexp"
)

const MinPasswordLength = 6

const (
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Email is invalid"
	MsgPasswordRequired = "Password is required"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgMissingRequired  = "Please fill in all required fields."
	MsgAgeNotNumber     = "Age must be a whole number"
)

// Deliberately coarse: local part, "@", a domain containing a dot.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidateCredentials checks the email and password fields independently,
// so both messages can be present at once.
func ValidateCredentials(f CredentialForm) Errors {
	errs := Errors{}

	switch {
	case f.Email == "":
		errs[KeyEmail] = MsgEmailRequired
	case !emailPattern.MatchString(f.Email):
		errs[KeyEmail] = MsgEmailInvalid
	}

	switch {
	case f.Password == "":
		errs[KeyPassword] = MsgPasswordRequired
	case len([]rune(f.Password)) < MinPasswordLength:
		errs[KeyPassword] = MsgPasswordTooShort
	}

	return errs
}

// ValidateProfile blocks submission unless name, age and fitness level are
// all present. Bio, gym location and goals are unconstrained.
func ValidateProfile(f ProfileForm) Errors {
	errs := Errors{}

	if f.Name == "" || f.Age == "" || f.FitnessLevel == "" {
		errs[KeySubmit] = MsgMissingRequired
		return errs
	}

	if _, err := parseAge(f.Age); err != nil {
		errs[KeyAge] = MsgAgeNotNumber
	}

	return errs
}
