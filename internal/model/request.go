package model

// CatalogRequest asks the catalog builder to write a playlist's tracks to OutputPath.
type CatalogRequest struct {
	PlaylistURL string
	OutputPath  string
}

// DownloadRequest asks the batch downloader to fetch every track listed in
// CatalogPath into OutputDir.
type DownloadRequest struct {
	CatalogPath string
	OutputDir   string
}
