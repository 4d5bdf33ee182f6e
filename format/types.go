package format

type (
	EndiannessType  uint8
	CompressionType uint8
)

const (
	EndianBig    EndiannessType = 0x0 // EndianBig represents big-endian record layout.
	EndianLittle EndiannessType = 0x1 // EndianLittle represents little-endian record layout.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (e EndiannessType) String() string {
	switch e {
	case EndianBig:
		return "BigEndian"
	case EndianLittle:
		return "LittleEndian"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
