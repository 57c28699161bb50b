package dto

// SignRequest carries the private key and message. The message may be empty.
type SignRequest struct {
	PrivateKey []byte `json:"private_key"`
	Message    []byte `json:"message"`
}

// SignResponse holds the signature.
type SignResponse struct {
	Signature []byte `json:"signature"`
}

// VerifyRequest carries the public key, message and signature.
type VerifyRequest struct {
	PublicKey []byte `json:"public_key"`
	Message   []byte `json:"message"`
	Signature []byte `json:"signature"`
}

// VerifyResponse reports the verification outcome. A signature that does
// not verify is valid=false with status 200.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}
