package ir

// Version is the minidsl library version.
const Version = "0.1.0"
