package utils // package utils provides helper functions for password hashing

import "golang.org/x/crypto/bcrypt" // bcrypt implements secure password hashing

// HashPassword hashes a plaintext password with bcrypt at the default cost.
// Used by the credential bootstrap when only a plaintext staff password is
// configured.
func HashPassword(password string) (string, error) {
    hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
    if err != nil {
        return "", err
    }
    return string(hashed), nil
}

// VerifyPassword compares a bcrypt hash against a plaintext candidate and
// reports whether they match.
func VerifyPassword(hashed, password string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
