package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type so wikis and pages never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// WikiUUID identifies the wiki owned by a content pack.
func WikiUUID(packName string) uuid.UUID {
	return UUID("go-wiki:wiki:" + strings.TrimSpace(packName))
}

// PageUUID identifies a page within a wiki. key is the page ID for authored
// pages or the entity name for generated ones.
func PageUUID(wikiID uuid.UUID, key string) uuid.UUID {
	return UUID("go-wiki:page:" + wikiID.String() + ":" + strings.TrimSpace(key))
}
