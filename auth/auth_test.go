package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestParseUserInfo_ExtractsClaimsWithoutVerification(t *testing.T) {
	req := require.New(t)

	// Given a token signed with a secret the parser does not know
	token, err := GenerateToken([]byte("some-other-secret"), "423456789012345001", "me", time.Hour)
	req.NoError(err)

	// When identity is extracted
	info, ok := ParseUserInfo(token)

	// Then the claims are readable regardless of the signature
	req.True(ok)
	req.Equal("423456789012345001", info.UID)
	req.Equal("me", info.Username)
}

func TestParseUserInfo_MalformedTokenIsNotAnError(t *testing.T) {
	req := require.New(t)

	info, ok := ParseUserInfo("not a jwt at all")

	req.False(ok)
	req.Empty(info.UID)
}

func TestVerifyToken_RoundTrip(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken(testSecret, "uid-1", "vegeta897", time.Hour)
	req.NoError(err)

	info, err := VerifyToken(testSecret, token)
	req.NoError(err)
	req.Equal("vegeta897", info.Username)
}

func TestVerifyToken_RejectsWrongSecret(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken(testSecret, "uid-1", "vegeta897", time.Hour)
	req.NoError(err)

	_, err = VerifyToken([]byte("wrong"), token)
	req.Error(err)
}

func TestTokenValidator(t *testing.T) {
	req := require.New(t)
	validate := NewTokenValidator(testSecret)

	good, err := GenerateToken(testSecret, "uid-1", "vegeta897", time.Hour)
	req.NoError(err)

	req.True(validate(good, UserInfo{}, "123456789012345678"))
	req.False(validate("garbage", UserInfo{}, "123456789012345678"))
}

func TestPasswordValidator(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("hunter2hunter2")
	req.NoError(err)
	validate := NewPasswordValidator(hash)

	req.True(validate("hunter2hunter2", UserInfo{}, "123456789012345678"))
	req.False(validate("wrong", UserInfo{}, "123456789012345678"))
}

func TestComparePassword_RejectsMangledHash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "$argon2id$broken")
	req.Error(err)
}
