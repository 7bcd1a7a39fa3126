package otbm

// Node framing bytes.
const (
	nodeStart  byte = 0xFE
	nodeEnd    byte = 0xFF
	escapeChar byte = 0xFD
)

// NodeType identifies an OTBM node.
type NodeType byte

// Node types used by the world map container.
const (
	NodeRootV1     NodeType = 1
	NodeMapData    NodeType = 2
	NodeItemDef    NodeType = 3
	NodeTileArea   NodeType = 4
	NodeTile       NodeType = 5
	NodeItem       NodeType = 6
	NodeTileSquare NodeType = 7
	NodeTileRef    NodeType = 8
	NodeSpawns     NodeType = 9
	NodeSpawnArea  NodeType = 10
	NodeMonster    NodeType = 11
	NodeTowns      NodeType = 12
	NodeTown       NodeType = 13
	NodeHouseTile  NodeType = 14
	NodeWaypoints  NodeType = 15
	NodeWaypoint   NodeType = 16
	NodeTileZone   NodeType = 19
)

// Attribute identifiers inside node properties.
const (
	AttrDescription     byte = 1
	AttrTileFlags       byte = 3
	AttrActionID        byte = 4
	AttrUniqueID        byte = 5
	AttrText            byte = 6
	AttrDesc            byte = 7
	AttrTeleDest        byte = 8
	AttrItem            byte = 9
	AttrDepotID         byte = 10
	AttrExtSpawnFile    byte = 11
	AttrRuneCharges     byte = 12
	AttrExtHouseFile    byte = 13
	AttrHouseDoorID     byte = 14
	AttrCount           byte = 15
	AttrDuration        byte = 16
	AttrDecayingState   byte = 17
	AttrWrittenDate     byte = 18
	AttrWrittenBy       byte = 19
	AttrSleeperGUID     byte = 20
	AttrSleepStart      byte = 21
	AttrCharges         byte = 22
	AttrExtSpawnNpcFile byte = 23
	AttrExtZoneFile     byte = 24
)

// identifierLen: длина сигнатуры файла перед корневым узлом.
const identifierLen = 4
