package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/campusmind/advising-backend/internal/domain"
)

// directoryEntry pairs an identity with its stored credential hash. The hash
// never leaves this package.
type directoryEntry struct {
	identity     domain.Identity
	passwordHash string
}

// Directory is the static user table used for password authentication. It is
// built once at startup and read-only afterwards. Password authentication is
// a development stand-in for the university's identity federation and is
// gated to mock mode; live deployments verify federated tokens upstream and
// only ever call Lookup.
type Directory struct {
	mockMode bool
	byEmail  map[string]directoryEntry
}

// NewDirectory builds the directory for the given operating mode, seeded
// with the fixed development user table.
func NewDirectory(mockMode bool) *Directory {
	d := &Directory{
		mockMode: mockMode,
		byEmail:  make(map[string]directoryEntry),
	}
	for _, e := range seedEntries() {
		d.byEmail[e.identity.Email] = e
	}
	return d
}

// seedEntries returns the provisioned development users. Hashes are computed
// at startup so no plaintext-equivalent digest is baked into the binary.
func seedEntries() []directoryEntry {
	return []directoryEntry{
		{
			identity: domain.Identity{
				ID:            "student001",
				Name:          "Taro Tanaka",
				Email:         "student001@st.example-u.ac.jp",
				Role:          domain.RoleStudent,
				StudentNumber: "IS1234567",
				Department:    "Information Science",
				Year:          2,
			},
			passwordHash: mustHash("password123"),
		},
		{
			identity: domain.Identity{
				ID:            "student002",
				Name:          "Hanako Sato",
				Email:         "student002@st.example-u.ac.jp",
				Role:          domain.RoleStudent,
				StudentNumber: "IS1234568",
				Department:    "Information Science",
				Year:          2,
			},
			passwordHash: mustHash("password123"),
		},
		{
			identity: domain.Identity{
				ID:         "professor001",
				Name:       "Prof. Nakajima",
				Email:      "professor@fc.example-u.ac.jp",
				Role:       domain.RoleFaculty,
				EmployeeID: "FC001",
				Department: "Information Science",
				Position:   "Professor",
			},
			passwordHash: mustHash("faculty123"),
		},
	}
}

func mustHash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

// Authenticate looks up email in the directory (exact match) and compares
// the password against the stored hash. It returns the identity and true on
// a match, never including the hash; otherwise the zero identity and false.
//
// Calling Authenticate outside mock mode is a programming error and panics:
// the password path must not be reachable in live deployments.
func (d *Directory) Authenticate(email, password string) (domain.Identity, bool) {
	if !d.mockMode {
		panic("auth: password authentication is only available in mock mode")
	}

	e, ok := d.byEmail[email]
	if !ok {
		return domain.Identity{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(e.passwordHash), []byte(password)) != nil {
		return domain.Identity{}, false
	}
	return e.identity, true
}

// Lookup returns the identity provisioned for email, if any.
func (d *Directory) Lookup(email string) (domain.Identity, bool) {
	e, ok := d.byEmail[email]
	if !ok {
		return domain.Identity{}, false
	}
	return e.identity, true
}

// RoleForEmail derives a role from the email's domain suffix, mirroring how
// directory federation classifies accounts. Unknown domains map to guest.
func RoleForEmail(email string) domain.Role {
	switch {
	case strings.HasSuffix(email, "@st.example-u.ac.jp"):
		return domain.RoleStudent
	case strings.HasSuffix(email, "@fc.example-u.ac.jp"):
		return domain.RoleFaculty
	case strings.HasSuffix(email, "@staff.example-u.ac.jp"):
		return domain.RoleStaff
	default:
		return domain.RoleGuest
	}
}
