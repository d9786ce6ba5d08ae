package googleauth

// Identity is the validated assertion extracted from a Google ID token.
// It exists only for the duration of one callback.
type Identity struct {
	SubjectID     string
	Email         string
	Name          string
	PictureURL    string
	EmailVerified bool
}
