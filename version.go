package urlsum

// Version is set at build time with -ldflags "-X github.com/a-h/urlsum.Version=...".
var Version = "dev"
