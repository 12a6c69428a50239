// Package crypto implements password-based authenticated encryption for
// journal records. Keys are derived with PBKDF2-SHA256 and payloads are
// sealed with AES-256-GCM, so decryption with a wrong password always fails
// verifiably instead of returning garbage.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32
	// SaltSize is the per-envelope PBKDF2 salt size.
	SaltSize = 16
	// NonceSize is the GCM nonce size.
	NonceSize = 12
	// Iterations is the PBKDF2 iteration count.
	Iterations = 100000
)

var (
	// ErrAuthentication is returned when a ciphertext does not authenticate
	// under the supplied password.
	ErrAuthentication = errors.New("authentication failed: wrong password or corrupt data")
	// ErrInvalidEnvelope is returned for structurally invalid envelopes.
	ErrInvalidEnvelope = errors.New("invalid envelope format")
)

// Envelope is the stored form of an encrypted payload. Each envelope carries
// its own salt, so a record can be decrypted knowing only the password.
type Envelope struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Provider is the encryption contract the settings and journal layers
// program against.
type Provider interface {
	Encrypt(payload []byte, password string) (*Envelope, error)
	Decrypt(env *Envelope, password string) ([]byte, error)
}

// PBKDF2Provider implements Provider with PBKDF2-SHA256 key derivation and
// AES-256-GCM sealing.
type PBKDF2Provider struct {
	iterations int
}

// NewProvider returns a provider with the default iteration count.
func NewProvider() *PBKDF2Provider {
	return &PBKDF2Provider{iterations: Iterations}
}

// NewProviderWithIterations returns a provider with a custom iteration
// count. Intended for tests; production envelopes use Iterations.
func NewProviderWithIterations(iterations int) *PBKDF2Provider {
	if iterations < 1 {
		iterations = Iterations
	}
	return &PBKDF2Provider{iterations: iterations}
}

func (p *PBKDF2Provider) deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, p.iterations, KeySize, sha256.New)
}

// Encrypt seals payload under password with a fresh salt and nonce.
func (p *PBKDF2Provider) Encrypt(payload []byte, password string) (*Envelope, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := p.deriveKey(password, salt)
	defer Zeroize(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &Envelope{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, payload, nil),
	}, nil
}

// Decrypt opens an envelope. It returns ErrAuthentication when the password
// is wrong or the ciphertext was tampered with.
func (p *PBKDF2Provider) Decrypt(env *Envelope, password string) ([]byte, error) {
	if env == nil {
		return nil, ErrInvalidEnvelope
	}
	if len(env.Salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt size %d", ErrInvalidEnvelope, len(env.Salt))
	}
	if len(env.Nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce size %d", ErrInvalidEnvelope, len(env.Nonce))
	}

	key := p.deriveKey(password, env.Salt)
	defer Zeroize(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// Zeroize securely clears a byte slice.
func Zeroize(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// ZeroizeString clears the backing bytes of a string variable and empties it.
func ZeroizeString(s *string) {
	if s == nil {
		return
	}
	b := []byte(*s)
	Zeroize(b)
	*s = ""
}
