package pipeline

// Reader — синхронное чтение одной выборки. Вызывается только из контекста
// прерывания, поэтому не должно блокироваться.
type Reader interface {
	Read() Sample
}

// Producer — обработчик прерывания таймера. Владеет курсором буфера записи.
type Producer struct {
	p   *Pipeline
	src Reader
}

// NewProducer привязывает источник выборок к конвейеру. Допускается один Producer.
func (p *Pipeline) NewProducer(src Reader) (*Producer, error) {
	if !p.producerBound.CompareAndSwap(false, true) {
		return nil, ErrProducerBound
	}
	return &Producer{p: p, src: src}, nil
}

// OnTick выполняется на каждом тике таймера: ограничено по времени, не блокирует,
// не выделяет память и не берёт мьютексов.
//
// Возвращает yield = true, если тик разбудил задачу усреднения (подсказка
// планировщику переключиться сразу).
func (pr *Producer) OnTick() (yield bool) {
	p := pr.p
	w := p.pair.Write()

	if !p.gate.Overrun() && !w.Full() {
		w.Put(pr.src.Read())
		p.stats.samples.Add(1)
	} else {
		p.stats.droppedTicks.Add(1)
	}

	if !w.Full() {
		return false
	}
	// Буфер полон: меняем роли, только если задача освободила буфер чтения.
	// Иначе TryAcquire сам выставит overrun, и выборки пойдут в отброс.
	if !p.gate.TryAcquire() {
		return false
	}
	p.pair.Swap()
	p.pair.Write().Reset()
	p.stats.swaps.Add(1)
	return p.ready.Raise()
}
