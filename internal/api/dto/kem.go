package dto

// EncapsulateRequest carries the peer public key.
type EncapsulateRequest struct {
	PublicKey []byte `json:"public_key"`
}

// EncapsulateResponse holds the ciphertext for the peer and the shared secret.
type EncapsulateResponse struct {
	Ciphertext   []byte `json:"ciphertext"`
	SharedSecret []byte `json:"shared_secret"`
}

// DecapsulateRequest carries the private key and ciphertext.
type DecapsulateRequest struct {
	PrivateKey []byte `json:"private_key"`
	Ciphertext []byte `json:"ciphertext"`
}

// DecapsulateResponse holds the recovered shared secret.
type DecapsulateResponse struct {
	SharedSecret []byte `json:"shared_secret"`
}
