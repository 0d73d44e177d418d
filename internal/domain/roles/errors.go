package roles

import "errors"

// ErrNotAdmitted is returned for players with no mapped position or too few minutes.
var ErrNotAdmitted = errors.New("player not admitted to a role group")
