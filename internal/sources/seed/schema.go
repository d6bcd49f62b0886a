package seed

// Config is the root of a links seed file.
//
//	links:
//	  - url: example.com/read-this
//	    memo: "from the old bookmarks export"
//	    tags: [go, reading]
type Config struct {
	Links []Entry `yaml:"links"`
}

// Entry is one seeded link.
type Entry struct {
	URL  string   `yaml:"url"`
	Memo string   `yaml:"memo,omitempty"`
	Tags []string `yaml:"tags,omitempty"`
}
