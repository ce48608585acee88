package program

import "github.com/mesh-intelligence/drm/pkg/types"

// requireSigner asserts that signer acts for authority.
func requireSigner(signer, authority string) error {
	if signer == "" || signer != authority {
		return types.ErrUnauthorized
	}
	return nil
}
