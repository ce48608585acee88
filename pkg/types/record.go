package types

// Record kinds. Each kind lives in its own table or key space.
const (
	KindRegistry     = "registry"
	KindContent      = "content"
	KindLicense      = "license"
	KindPackage      = "package"
	KindTokenAccount = "token_account"
)

// StandardKinds lists all record kinds for enumeration.
var StandardKinds = []string{
	KindRegistry,
	KindContent,
	KindLicense,
	KindPackage,
	KindTokenAccount,
}

// Record is an entity stored at a deterministic address.
type Record interface {
	// Kind returns one of the Kind constants.
	Kind() string

	// Address returns the storage address derived from the record's stable
	// identifier.
	Address() Address
}

// NewRecord returns an empty record of the given kind, suitable as a
// destination for Tx.Get. Returns ErrKindNotFound for unknown kinds.
func NewRecord(kind string) (Record, error) {
	switch kind {
	case KindRegistry:
		return &Registry{}, nil
	case KindContent:
		return &Content{}, nil
	case KindLicense:
		return &License{}, nil
	case KindPackage:
		return &Package{}, nil
	case KindTokenAccount:
		return &TokenAccount{}, nil
	default:
		return nil, ErrKindNotFound
	}
}
