// Package fetch downloads and unpacks build inputs.
//
// Files are fetched with a single HTTP GET into a per-user cache, so repeated
// builds reuse the SQLite amalgamation and the installer ISO instead of
// downloading them again. An optional SHA3-256 digest, the format published
// on sqlite.org, guards both fresh and cached copies.
//
// Example usage:
//
//	f := &fetch.Fetcher{}
//	archive, err := f.Fetch(ctx, fetch.AmalgamationURL, "")
//	if err != nil {
//	    return err
//	}
//	src, err := fetch.Unpack(ctx, archive, ".", "sqlite_build")
package fetch
