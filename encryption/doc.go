// Package encryption seals credential records at rest with an AEAD cipher.
//
// A passphrase is hashed with SHA-256 into a 256-bit key. The default
// algorithm is AES-256-GCM; ChaCha20-Poly1305 is available through
// WithAlgorithm. Each sealed record is nonce || ciphertext.
//
// # Usage
//
//	enc, err := encryption.New(passphrase, encryption.WithAlgorithm(encryption.AlgorithmChaCha20))
//	sealed, err := enc.Seal(record, []byte("tokenId"))
//	record, err := enc.Open(sealed, []byte("tokenId"))
package encryption
