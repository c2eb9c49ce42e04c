package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
)

const (
	prefixBookSearch   = "books:search:"
	prefixAuthorSearch = "authors:search:"
	prefixTagSearch    = "tags:search:"

	// BookSearchPattern matches every cached book search page
	BookSearchPattern = prefixBookSearch + "*"
)

// BookSearchKey is the cache key of one book search page
func BookSearchKey(criteria interface{}) string {
	return prefixBookSearch + fingerprint(criteria)
}

// AuthorSearchKey is the cache key of one author search page
func AuthorSearchKey(criteria interface{}) string {
	return prefixAuthorSearch + fingerprint(criteria)
}

// TagSearchKey is the cache key of one tag search page
func TagSearchKey(criteria interface{}) string {
	return prefixTagSearch + fingerprint(criteria)
}

// fingerprint hashes the JSON form of v. Struct fields marshal in declaration
// order, so equal criteria give equal keys.
func fingerprint(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:])
}
