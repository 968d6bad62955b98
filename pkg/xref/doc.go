// Package xref rewrites inline cross-references in rendered text into links.
//
// The engine has two parts. The Scanner partitions text into open and
// protected chunks, where protected chunks are everything inside <pre> and
// <code> elements (tags included). The Resolver runs an ordered pipeline of
// passes over every open chunk:
//
//  1. inline images: src="file.png" attributes pointing at attachments
//  2. wiki links: [[page]], [[page|title]], [[project:page#anchor|title]]
//  3. object references: #12, r345, document#3, version:"1.0", source:path@rev#L10 ...
//
// Each pass consumes the output of the previous one. A leading "!" escapes a
// reference. References that cannot be resolved are left as written; only
// collaborator errors abort a rewrite.
package xref
