//go:build windows

package exec

import osexec "os/exec"

func setProcessGroup(cmd *osexec.Cmd) {
	cmd.Cancel = func() error {
		return cmd.Process.Kill()
	}
}
