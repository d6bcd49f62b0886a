package redis

const (
	// KeyPrefixLink is the prefix for per-link records.
	KeyPrefixLink = "linkd:link:"
	// KeyPrefixOwnerSet is the prefix for the per-owner set of link IDs.
	KeyPrefixOwnerSet = "linkd:links:"
)

// LinkKey returns the Redis key for one link record.
func LinkKey(owner, id string) string {
	return KeyPrefixLink + owner + ":" + id
}

// OwnerSetKey returns the key of the set holding an owner's link IDs.
func OwnerSetKey(owner string) string {
	return KeyPrefixOwnerSet + owner
}
