// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens and id generation.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(plain)
	err = auth.CheckPassword(hash, plain) // ErrInvalidCredentials on mismatch

# Session Tokens

Login issues an HS256 JWT whose subject is the user id:

	token, err := auth.IssueToken(secret, user.ID, user.Email, 24*time.Hour, time.Now())
	claims, err := auth.ParseToken(secret, token)

ParseToken only accepts HS256 tokens from this service's issuer with an
expiry in the future. Any failure wraps ErrInvalidToken.

# ID Generation

CMS records use UUIDs:

	id := auth.NewID()

GenerateID returns random hex of a given byte length for shorter opaque ids.
*/
package auth
