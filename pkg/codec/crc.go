package codec

import "hash/crc32"

// ieeeTable is the standard reflected CRC32 table for polynomial 0xEDB88320,
// the same table Go's hash/crc32.ChecksumIEEE uses internally.
var ieeeTable = crc32.MakeTable(crc32.IEEE)

// ChecksumIEEE computes the CRC32 (poly 0xEDB88320, init/final XOR
// 0xFFFFFFFF) of data. It is the checksum used to guard WAL frame payloads.
func ChecksumIEEE(data []byte) uint32 {
	return crc32.Checksum(data, ieeeTable)
}
