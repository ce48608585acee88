package types

// Filter keys accepted by Ledger.Fetch, per record kind. Values are either
// a string or a bool as noted.
const (
	FilterAuthority = "authority" // string
	FilterOwner     = "owner"     // string
	FilterContent   = "content"   // string: content address
	FilterIsActive  = "is_active" // bool
)

// filterFields lists, per kind, which filter keys apply and whether each
// takes a bool (true) or a string (false).
var filterFields = map[string]map[string]bool{
	KindRegistry: {},
	KindContent: {
		FilterAuthority: false,
		FilterIsActive:  true,
	},
	KindLicense: {
		FilterAuthority: false,
		FilterOwner:     false,
		FilterContent:   false,
		FilterIsActive:  true,
	},
	KindPackage: {
		FilterAuthority: false,
		FilterIsActive:  true,
	},
	KindTokenAccount: {
		FilterOwner: false,
	},
}

// Validate checks every key and value in f against kind.
// Returns ErrKindNotFound for an unknown kind and ErrInvalidFilter for an
// unknown key or a value of the wrong type.
func (f Filter) Validate(kind string) error {
	fields, ok := filterFields[kind]
	if !ok {
		return ErrKindNotFound
	}
	for key, val := range f {
		isBool, known := fields[key]
		if !known {
			return ErrInvalidFilter
		}
		switch val.(type) {
		case bool:
			if !isBool {
				return ErrInvalidFilter
			}
		case string:
			if isBool {
				return ErrInvalidFilter
			}
		default:
			return ErrInvalidFilter
		}
	}
	return nil
}

// Match reports whether rec satisfies every condition in f.
// f must already have passed Validate for rec's kind.
func (f Filter) Match(rec Record) bool {
	for key, want := range f {
		if fieldValue(rec, key) != want {
			return false
		}
	}
	return true
}

// fieldValue returns the value of the filterable field key on rec.
func fieldValue(rec Record, key string) any {
	switch r := rec.(type) {
	case *Content:
		switch key {
		case FilterAuthority:
			return r.Authority
		case FilterIsActive:
			return r.IsActive
		}
	case *License:
		switch key {
		case FilterAuthority:
			return r.Authority
		case FilterOwner:
			return r.Owner
		case FilterContent:
			return string(r.Content)
		case FilterIsActive:
			return r.IsActive
		}
	case *Package:
		switch key {
		case FilterAuthority:
			return r.Authority
		case FilterIsActive:
			return r.IsActive
		}
	case *TokenAccount:
		if key == FilterOwner {
			return r.Owner
		}
	}
	return nil
}
