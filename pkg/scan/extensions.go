package scan

// BinaryExtensions lists lowercase extensions, without the dot, that are
// never read as text.
var BinaryExtensions = []string{
	// images
	"png", "jpg", "jpeg", "gif", "bmp", "ico", "tif", "tiff", "webp", "heic", "psd",
	// audio and video
	"mp3", "wav", "flac", "ogg", "aac", "m4a", "mp4", "mov", "avi", "mkv", "webm",
	// archives
	"zip", "tar", "gz", "tgz", "bz2", "xz", "7z", "rar", "zst", "jar", "war",
	// executables and objects
	"exe", "dll", "so", "dylib", "o", "a", "lib", "bin", "class", "pyc", "wasm",
	// documents
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt",
	// fonts
	"ttf", "otf", "woff", "woff2", "eot",
	// data
	"db", "sqlite", "sqlite3", "parquet", "npy", "pkl",
}
