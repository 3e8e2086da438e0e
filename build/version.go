package build

// Version is the current version of walletd.
const Version = "0.1.0"
