package submit

// Screen names a destination the UI layer can navigate to.
type Screen string

const (
	ScreenNone         Screen = ""
	ScreenWelcome      Screen = "welcome"
	ScreenOnboarding   Screen = "onboarding"
	ScreenSignUp       Screen = "signup"
	ScreenLogin        Screen = "login"
	ScreenProfileSetup Screen = "profile-setup"
	ScreenMain         Screen = "main"
)

// Navigator moves the UI to another screen. Nothing is returned to the caller.
type Navigator interface {
	GoTo(screen Screen)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(Screen)

func (f NavigatorFunc) GoTo(screen Screen) { f(screen) }

// Follow moves nav to the outcome's next screen, if it names one.
// It reports whether navigation happened.
func Follow(nav Navigator, out Outcome) bool {
	if nav == nil || out.Next == ScreenNone {
		return false
	}
	nav.GoTo(out.Next)
	return true
}
