// Package tempstore keeps uploaded files in a shared scratch directory.
//
// A Directory is created lazily on the first CreateFile call and removed
// recursively by Delete. Stored files get a generated name built from the
// sanitized original name, a nanosecond timestamp and a random suffix, so
// concurrent uploads of the same file never collide. The original name is
// kept for display and for Content-Disposition headers.
//
//	dir := tempstore.NewDirectory(filepath.Join(os.TempDir(), "kestrel"))
//	defer dir.Delete()
//
//	f, err := dir.CreateFile("report.pdf", content)
//	if err != nil {
//	    return err
//	}
//	log.Println(f.OriginalName(), f.Path())
package tempstore
