package commanderpro

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/gousb"
)

// list all devices:
//
//	go get -v github.com/google/gousb/lsusb
//	lsusb
//	Bus 001 Device 003: ID 1b1c:0c10 Corsair Commander PRO

const (
	// Commander Pro vendor ID
	vid = gousb.ID(0x1b1c)

	// Commander Pro product ID
	pid = gousb.ID(0x0c10)

	// packetSize is used when the endpoint does not report one.
	packetSize = 64
)

type cmd byte

type CommanderPro struct {
	ctx      *gousb.Context
	dev      *gousb.Device
	intf     *gousb.Interface
	intfDone func()

	// in and out are the device endpoints, with their max packet sizes.
	in      io.Reader
	out     io.Writer
	inSize  int
	outSize int

	mutex sync.Mutex
}

// Open claims the first Commander PRO found.
func Open() (cp *CommanderPro, err error) {
	cp = &CommanderPro{}

	cp.ctx = gousb.NewContext()

	cp.dev, err = cp.ctx.OpenDeviceWithVIDPID(vid, pid)
	if err != nil || cp.dev == nil {
		cp.Close()
		return nil, fmt.Errorf("could not open a device: %v", err)
	}

	if err = cp.dev.SetAutoDetach(true); err != nil {
		cp.Close()
		return nil, fmt.Errorf("unable to set autodetach on device: %v", err)
	}

	// The default interface is always #0 alt #0 in the currently active config.
	cp.intf, cp.intfDone, err = cp.dev.DefaultInterface()
	if err != nil {
		cp.Close()
		return nil, fmt.Errorf("%s.DefaultInterface(): %v", cp.dev, err)
	}

	inEndpoint, err := cp.intf.InEndpoint(1)
	if err != nil {
		cp.Close()
		return nil, fmt.Errorf("%s.InEndpoint(1): %v", cp.intf, err)
	}
	cp.in, cp.inSize = inEndpoint, inEndpoint.Desc.MaxPacketSize

	outEndpoint, err := cp.intf.OutEndpoint(2)
	if err != nil {
		cp.Close()
		return nil, fmt.Errorf("%s.OutEndpoint(2): %v", cp.intf, err)
	}
	cp.out, cp.outSize = outEndpoint, outEndpoint.Desc.MaxPacketSize

	return cp, nil
}

// Close releases the interface, the device and the usb context, in this order.
func (cp *CommanderPro) Close() error {
	if cp.intfDone != nil {
		cp.intfDone()
		cp.intfDone = nil
	}
	var err error
	if cp.dev != nil {
		err = cp.dev.Close()
		cp.dev = nil
	}
	if cp.ctx != nil {
		if cErr := cp.ctx.Close(); err == nil {
			err = cErr
		}
		cp.ctx = nil
	}
	return err
}

func (cp *CommanderPro) packet() []byte {
	size := packetSize
	if cp.outSize > 0 {
		size = cp.outSize
	}
	return make([]byte, size)
}

func (cp *CommanderPro) cmd(cmd []byte) (response []byte, err error) {
	cp.mutex.Lock()
	defer cp.mutex.Unlock()

	numBytes, err := cp.out.Write(cmd)
	if err != nil {
		return nil, fmt.Errorf("write error: %v", err)
	}
	if numBytes != len(cmd) {
		return nil, fmt.Errorf("write error: only %d of %d bytes written", numBytes, len(cmd))
	}

	size := packetSize
	if cp.inSize > 0 {
		size = cp.inSize
	}
	// readBytes might be smaller than the buffer size. readBytes might be greater than zero even if err is not nil.
	buf := make([]byte, size)
	readBytes, err := cp.in.Read(buf)
	if err != nil {
		return buf, fmt.Errorf("read error: %v", err)
	}
	if readBytes == 0 {
		return buf, fmt.Errorf("endpoint returned 0 bytes of data")
	}

	return buf, nil
}
