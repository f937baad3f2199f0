package models

// ReadResult возвращается операциями чтения содержимого файла.
type ReadResult struct {
	Data   string
	Base64 bool
	Size   int
}

// ChunkPlan описывает, на сколько частей будет разбит файл и какого они размера.
type ChunkPlan struct {
	Total int
	Size  int64
	Last  int64
}

// PlanChunks вычисляет раскладку файла длиной length на куски по chunkSize байт.
func PlanChunks(length, chunkSize int64) ChunkPlan {
	if length <= 0 || chunkSize <= 0 {
		return ChunkPlan{}
	}

	total := length / chunkSize
	last := length % chunkSize
	if last == 0 {
		last = chunkSize
	} else {
		total++
	}

	return ChunkPlan{
		Total: int(total),
		Size:  chunkSize,
		Last:  last,
	}
}
