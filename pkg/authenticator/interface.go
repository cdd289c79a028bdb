package authenticator

// TokenEngine signs and verifies tokens which carry an object of type T.
// Tokens are issued by the identity provider of Abi, this service mostly
// verifies them. Generate is used by tools and tests.
type TokenEngine[T any] interface {
	Generate(sub string, obj T) (string, error)
	Verify(token string) (T, error)
}
