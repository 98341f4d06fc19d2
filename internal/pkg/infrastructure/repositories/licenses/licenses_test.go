package licenses

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestNilReaderYieldsBuiltInRegister(t *testing.T) {
	is := is.New(t)

	register, err := NewRegister(nil)
	is.NoErr(err)

	all := register.Licenses()
	is.True(len(all) > 0)
	is.Equal(all[0].ID, "cc-by") // order of the built-in register is stable
}

func TestRegisterKeepsFileOrder(t *testing.T) {
	is := is.New(t)

	register, err := NewRegister(strings.NewReader(`
- id: cc-by
  title: title1
- id: cc0
  title: title2
`))
	is.NoErr(err)

	all := register.Licenses()
	is.Equal(len(all), 2)
	is.Equal(all[0].ID, "cc-by")
	is.Equal(all[0].Title, "title1")
	is.Equal(all[1].ID, "cc0")
}

func TestRegisterRejectsMalformedYaml(t *testing.T) {
	is := is.New(t)

	_, err := NewRegister(strings.NewReader("not: [valid"))
	is.True(err != nil)
}
