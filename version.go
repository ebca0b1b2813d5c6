package litpage

// Version of the litpage tools, overridden at build time with
// -ldflags "-X github.com/jwtly10/litpage.Version=...".
var Version = "dev"
