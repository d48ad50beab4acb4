package types

// ExtractConfig holds settings for the extraction stage.
type ExtractConfig struct {
	// InputFile is the path of the specification text to scan. May come
	// from the command line or from configuration.
	InputFile string `json:"input_file" yaml:"input_file"`

	// OutputFile overrides the derived output path. When empty, the output
	// path is the input path truncated at its first dot with ".asn" appended.
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
}

// SplitConfig holds settings for the per-block splitting stage.
type SplitConfig struct {
	// InputFile is the path of the specification text to scan.
	InputFile string `json:"input_file" yaml:"input_file"`

	// OutDir is the directory that receives one file per block (default "blocks").
	OutDir string `json:"out_dir" yaml:"out_dir"`
}

// CatalogConfig holds settings for the block catalog stage.
type CatalogConfig struct {
	// CatalogDir is the directory holding catalog.db and export files.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// BlocksDir is the directory of split block files to ingest.
	BlocksDir string `json:"blocks_dir" yaml:"blocks_dir"`

	// Source labels ingested blocks with the specification version they came
	// from (e.g. "36331-j00"). Defaults to the base name of BlocksDir.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
