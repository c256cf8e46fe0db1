// Package password implements one-way hashing and verification of account
// secrets.
//
// # Output format
//
// Argon2id hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Bcrypt hashes use the standard modular crypt format ($2a$, $2b$, $2y$), which
// is what the previous Node deployment stored in the users table.
//
// [Multi] hashes with one primary algorithm and verifies any supported format,
// so existing bcrypt rows keep working after argon2id becomes the default.
// [Multi.NeedsUpgrade] reports rows that should be re-hashed on the next
// successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve secrets; callers supply plaintext and receive hashes.
//   - Import any other insureAuth package.
//   - Return an error or panic from Verify for malformed stored hashes.
package password
