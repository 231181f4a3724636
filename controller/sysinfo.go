package controller

import (
	"rct/pkg/command"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// sysinfoCommand reports controller resource usage. Interval 0 makes
// cpu.Percent compare against the previous call instead of blocking.
func (e *Executor) sysinfoCommand(usage string, cmd command.Command) (command.Result, error) {
	if err := command.CheckExactNumArgs(usage, 0, len(cmd.Args)); err != nil {
		return command.Handled, err
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		e.printf("CPU:    %5.1f%%", percents[0])
	} else {
		e.println("CPU:    unavailable")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		e.printf("Memory: %5.1f%% (%d MB of %d MB)", vm.UsedPercent,
			vm.Used/1024/1024, vm.Total/1024/1024)
	} else {
		e.println("Memory: unavailable")
	}

	if du, err := disk.Usage("/"); err == nil {
		e.printf("Disk:   %5.1f%% (%d MB free)", du.UsedPercent, du.Free/1024/1024)
	} else {
		e.println("Disk:   unavailable")
	}

	return command.Handled, nil
}
