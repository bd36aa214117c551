package security

import "github.com/matthewhartstonge/argon2"

// HashPassword hashes a plaintext password with argon2id using the library
// default parameters. The returned hash is self-describing and safe to store.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()

	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword checks a plaintext password against a stored encoded hash.
// The comparison inside the library is constant time.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
