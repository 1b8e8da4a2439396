// Package walker traverses a directory tree, classifying every entry and, in
// fix mode, renaming non-compliant entries in place.
//
// Subdirectories of a level are classified and renamed before the walker
// descends into them, so traversal always follows the post-rename names.
package walker
