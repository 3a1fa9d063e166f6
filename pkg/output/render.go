package output

import (
	"fmt"
	"strings"

	"github.com/ccollicutt/kanata/pkg/kanata"
)

// text resolves ref against input, replacing invalid UTF-8.
func text(ref kanata.StrRef, input []byte) string {
	return strings.ToValidUTF8(ref.String(input), "�")
}

// Render returns the one-line human-readable form of cmd. input is the
// buffer cmd was parsed from.
func Render(cmd kanata.Command, input []byte) string {
	switch cmd := cmd.(type) {
	case kanata.Header:
		return fmt.Sprintf("Kanata version=%d", cmd.Version)

	case kanata.Cycle:
		if cmd.Abs {
			return fmt.Sprintf("Cycle =%d", cmd.Value)
		}
		return fmt.Sprintf("Cycle %+d", cmd.Value)

	case kanata.Instruction:
		return fmt.Sprintf("Instr file=%d sim=%d thread=%d", cmd.IDInFile, cmd.IDInSim, cmd.ThreadID)

	case kanata.Log:
		return fmt.Sprintf("Log id=%d kind=%s text=\"%s\"", cmd.ID, cmd.Kind, text(cmd.Text, input))

	case kanata.PipelineStage:
		edge := "End"
		if cmd.Start {
			edge = "Start"
		}
		return fmt.Sprintf("%sStage id=%d lane=%d name=%s", edge, cmd.ID, cmd.LaneID, text(cmd.Name, input))

	case kanata.Retire:
		return fmt.Sprintf("Retire id=%d rid=%d kind=%s", cmd.ID, cmd.RetireID, cmd.Kind)

	case kanata.Dependency:
		return fmt.Sprintf("Dep %d <- %d (%s)", cmd.ConsumerID, cmd.ProducerID, cmd.Kind)

	default:
		return fmt.Sprintf("%v", cmd)
	}
}
