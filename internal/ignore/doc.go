// Package ignore decides which entries of a source folder are copied.
//
// Rules are read from .gitignore and then .duplifolderignore in the root of
// the source folder, so .duplifolderignore patterns come last.
//
// Two matching modes exist:
//
//   - [ModeFlat] (default) tests immediate children of the source folder by
//     name. "*" matches any run of characters; everything else is literal.
//     Nested contents of an included directory are always copied.
//   - [ModeGitignore] uses full gitignore semantics (negation, anchoring,
//     directory-only patterns, "**") and also filters inside directories.
package ignore
