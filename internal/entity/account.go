package entity

// Account - metadata of a multi-signer account: signer weights and the weight needed to authorize.
type Account struct {
	ID        Identity            `json:"id"`
	Threshold uint32              `json:"threshold"`
	Signers   map[Identity]uint32 `json:"signers"`
}
