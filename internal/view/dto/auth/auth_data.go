package auth

// LoginCardData is the view model for the login/register card. It is built
// from a loginform.State plus the form instance id the page carries.
type LoginCardData struct {
	FormID     string
	Register   bool
	FullName   string
	Email      string
	Error      string
	Submitting bool
}

// SubmitLabel returns the submit button text.
func (d LoginCardData) SubmitLabel() string {
	switch {
	case d.Submitting:
		return "Please wait..."
	case d.Register:
		return "Register"
	default:
		return "Login"
	}
}

// ToggleLabel returns the text of the link that switches modes.
func (d LoginCardData) ToggleLabel() string {
	if d.Register {
		return "Already have an account? Login"
	}
	return "Don't have an account? Register"
}

// Mode returns the mode name carried in the form's hidden field.
func (d LoginCardData) Mode() string {
	if d.Register {
		return "register"
	}
	return "login"
}

// HomeCardData is the view model for the signed-in greeting.
type HomeCardData struct {
	Name    string
	Message string
}
