package content

// Reserved marker folder names. A directory containing one of these is
// classified as that kind; the marker folder itself never becomes a page.
const (
	GalleryMarker = "_gallery"
	BlogMarker    = "_blog"
)

// IndexFile names the Markdown file that provides a directory's own page.
const IndexFile = "index.md"

// Kind classifies a content node.
type Kind string

const (
	KindPage    Kind = "page"
	KindGallery Kind = "gallery"
	KindBlog    Kind = "blog"
)

// EntryKind classifies one discovery record.
type EntryKind string

const (
	EntryDir     EntryKind = "dir"     // plain directory (page-with-children when it has an index file)
	EntryGallery EntryKind = "gallery" // directory containing a gallery marker folder
	EntryBlog    EntryKind = "blog"    // directory containing a blog marker folder
	EntryPage    EntryKind = "page"    // standalone Markdown file
	EntryAsset   EntryKind = "asset"   // any other file, copied through verbatim
)
