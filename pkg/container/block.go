package container

// BlockType identifies the payload carried by a container block.
type BlockType byte

const (
	// BlockTrajectory carries an encoded trajectory.
	BlockTrajectory BlockType = 1
	// BlockLightProgram carries LED light program bytecode.
	BlockLightProgram BlockType = 2
	// BlockComment carries a free-form comment.
	BlockComment BlockType = 3
	// BlockYawControl carries yaw setpoints.
	BlockYawControl BlockType = 4
)

// String returns the conventional name of the block type.
func (t BlockType) String() string {
	switch t {
	case BlockTrajectory:
		return "trajectory"
	case BlockLightProgram:
		return "light program"
	case BlockComment:
		return "comment"
	case BlockYawControl:
		return "yaw control"
	default:
		return "unknown"
	}
}

// Block describes one block within a container: its type, declared body
// length and the absolute offset of the body in the underlying source.
type Block struct {
	Type       BlockType
	Length     int
	BodyOffset int64
}

// end returns the absolute offset one past the block's body.
func (b Block) end() int64 {
	return b.BodyOffset + int64(b.Length)
}
