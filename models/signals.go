package models

import (
	"encoding/json"
	"errors"
	"maps"
	"strconv"
)

// ErrTypeMismatch возвращается при чтении значения сигнала не тем
// дискриминантом, который зафиксирован определением сигнала на контроллере.
var ErrTypeMismatch = errors.New("signal value type mismatch")

// SignalKind представляет электрический тип сигнала ввода-вывода.
type SignalKind string

const (
	SignalDigital SignalKind = "digital"
	SignalAnalog  SignalKind = "analog"
)

// SignalValue - значение одного сигнала: либо логическое (цифровой сигнал),
// либо с плавающей точкой (аналоговый), но никогда оба сразу. Дискриминант
// задается контроллером и не выбирается клиентом; чтение не тем случаем -
// ошибка, а не неявное преобразование. Нулевое значение не несет ни одного
// случая, оба чтения возвращают ErrTypeMismatch.
type SignalValue struct {
	kind    SignalKind
	digital bool
	analog  float32
}

// Digital создает значение цифрового сигнала.
func Digital(v bool) SignalValue {
	return SignalValue{kind: SignalDigital, digital: v}
}

// Analog создает значение аналогового сигнала.
func Analog(v float32) SignalValue {
	return SignalValue{kind: SignalAnalog, analog: v}
}

// Kind возвращает дискриминант значения.
func (v SignalValue) Kind() SignalKind {
	return v.kind
}

// Bool возвращает значение цифрового сигнала.
func (v SignalValue) Bool() (bool, error) {
	if v.kind != SignalDigital {
		return false, ErrTypeMismatch
	}
	return v.digital, nil
}

// Float32 возвращает значение аналогового сигнала.
func (v SignalValue) Float32() (float32, error) {
	if v.kind != SignalAnalog {
		return 0, ErrTypeMismatch
	}
	return v.analog, nil
}

// String возвращает значение в формате lvalue контроллера: "1"/"0" для
// цифровых сигналов, десятичное число для аналоговых.
func (v SignalValue) String() string {
	switch v.kind {
	case SignalDigital:
		if v.digital {
			return "1"
		}
		return "0"
	case SignalAnalog:
		return strconv.FormatFloat(float64(v.analog), 'g', -1, 32)
	default:
		return ""
	}
}

// MarshalJSON кодирует значение родным для JSON типом: логическим для
// цифрового сигнала, числом для аналогового. Нулевое значение кодируется
// как null.
func (v SignalValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case SignalDigital:
		return json.Marshal(v.digital)
	case SignalAnalog:
		return json.Marshal(v.analog)
	default:
		return []byte("null"), nil
	}
}

// IOSignalInfo - текущие значения именованного набора сигналов. Имена
// сохраняют регистр, сообщенный контроллером; уникальность имен - свойство
// конкретного контроллера. При обновлении карта заменяется целиком, а не
// правится по ключам.
type IOSignalInfo map[string]SignalValue

// Equal сравнивает два набора сигналов по значению.
func (s IOSignalInfo) Equal(other IOSignalInfo) bool {
	return maps.Equal(s, other)
}

// SignalEntry - одна разобранная строка ответа контроллера о сигнале.
type SignalEntry struct {
	Name  string
	Value SignalValue
}

// MakeIOSignalInfo строит карту сигналов из разобранных строк ответа:
// ровно одна запись на каждое уникальное имя, при повторе имени побеждает
// последнее вхождение. Повторившиеся имена возвращаются отдельно - контроллер
// не должен их сообщать, вызывающая сторона фиксирует их в логе.
func MakeIOSignalInfo(entries []SignalEntry) (IOSignalInfo, []string) {
	info := make(IOSignalInfo, len(entries))
	var duplicates []string
	for _, e := range entries {
		if _, seen := info[e.Name]; seen {
			duplicates = append(duplicates, e.Name)
		}
		info[e.Name] = e.Value
	}
	return info, duplicates
}
