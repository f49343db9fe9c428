package drunkard

// Version is the release of the drunkard module.
var Version = "0.3.1"
