package uitemplates

// ActiveUserParams describes the signed-in user to the shared layout.  Every
// page's params struct carries one.
type ActiveUserParams struct {
	SignedIn    bool
	UID         string
	DisplayName string
	PhotoURL    string
}
