package sink

import "github.com/google/uuid"

// docNamespace scopes chart ids generated by DocID.
var docNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/pokeviz"))

// DocID derives a stable element id from a content hash, so that several
// charts embedded in one page do not share popup elements.
func DocID(contentHash string) string {
	return "pokeviz-" + uuid.NewSHA1(docNamespace, []byte(contentHash)).String()
}
