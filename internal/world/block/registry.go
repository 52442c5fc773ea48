package block

// BlockID представляет идентификатор класса заполненности вокселя.
// Нулевой ID (AirBlockID) - единственный пустой класс, любой ненулевой считается твердым.
type BlockID uint16

// Константы ID блоков
const (
	AirBlockID   BlockID = iota // 0
	StoneBlockID                // 1
)

var names = map[BlockID]string{
	AirBlockID:   "air",
	StoneBlockID: "stone",
}

// IsSolid возвращает true для любого блока, кроме воздуха
func (id BlockID) IsSolid() bool {
	return id != AirBlockID
}

// String возвращает читаемое имя блока
func (id BlockID) String() string {
	if name, ok := names[id]; ok {
		return name
	}
	return "unknown"
}
