// Package catalog reads and writes track catalogs and builds them from playlists.
//
// A catalog is a CSV file with the header track_number,title,url. Every field
// is quoted and rows end with CRLF. Reading tolerates a UTF-8 byte order mark,
// extra columns and header names that differ in case or surrounding whitespace.
//
// # Building a catalog
//
//	builder := catalog.NewBuilder(youtube.NewCommandProvider(tool), logger)
//	n, err := builder.Build(ctx, model.CatalogRequest{
//	    PlaylistURL: "https://www.youtube.com/playlist?list=PL...",
//	    OutputPath:  "tracks.csv",
//	})
//
// # Loading a catalog
//
//	cat, err := catalog.Load("tracks.csv")
//	if errors.Is(err, model.ErrEmptyCatalog) {
//	    // header only
//	}
package catalog
