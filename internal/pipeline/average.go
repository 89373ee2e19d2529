package pipeline

// Average возвращает среднее арифметическое выборок; для пустого среза — 0
func Average(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	return sum / float64(len(samples))
}
