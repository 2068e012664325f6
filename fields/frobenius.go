package fields

// Frobenius coefficients for BN254: (9+u)^((q^k-1)·i/6) for the k-th power
// Frobenius acting on the i-th tower coordinate.
var (
	nonResidue1Pow1 = NewE2(
		"8376118865763821496583973867626364092589906065868298776909617916018768340080",
		"16469823323077808223889137241176536799009286646108169935659301613961712198316")
	nonResidue1Pow2 = NewE2(
		"21575463638280843010398324269430826099269044274347216827212613867836435027261",
		"10307601595873709700152284273816112264069230130616436755625194854815875713954")
	nonResidue1Pow3 = NewE2(
		"2821565182194536844548159561693502659359617185244120367078079554186484126554",
		"3505843767911556378687030309984248845540243509899259641013678093033130930403")
	nonResidue1Pow4 = NewE2(
		"2581911344467009335267311115468803099551665605076196740867805258568234346338",
		"19937756971775647987995932169929341994314640652964949448313374472400716661030")
	nonResidue1Pow5 = NewE2(
		"685108087231508774477564247770172212460312782337200605669322048753928464687",
		"8447204650696766136447902020341177575205426561248465145919723016860428151883")

	nonResidue2Pow1 = NewE2(
		"21888242871839275220042445260109153167277707414472061641714758635765020556617", "0")
	nonResidue2Pow2 = NewE2(
		"21888242871839275220042445260109153167277707414472061641714758635765020556616", "0")
	nonResidue2Pow3 = NewE2(
		"21888242871839275222246405745257275088696311157297823662689037894645226208582", "0")
	nonResidue2Pow4 = NewE2(
		"2203960485148121921418603742825762020974279258880205651966", "0")
	nonResidue2Pow5 = NewE2(
		"2203960485148121921418603742825762020974279258880205651967", "0")

	nonResidue3Pow1 = NewE2(
		"11697423496358154304825782922584725312912383441159505038794027105778954184319",
		"303847389135065887422783454877609941456349188919719272345083954437860409601")
	nonResidue3Pow2 = NewE2(
		"3772000881919853776433695186713858239009073593817195771773381919316419345261",
		"2236595495967245188281701248203181795121068902605861227855261137820944008926")
	nonResidue3Pow3 = NewE2(
		"19066677689644738377698246183563772429336693972053703295610958340458742082029",
		"18382399103927718843559375435273026243156067647398564021675359801612095278180")
	nonResidue3Pow4 = NewE2(
		"5324479202449903542726783395506214481928257762400643279780343368557297135718",
		"16208900380737693084919495127334387981393726419856888799917914180988844123039")
	nonResidue3Pow5 = NewE2(
		"8941241848238582420466759817324047081148088512956452953208002715982955420483",
		"10338197737521362862238855242243140895517409139741313354160881284257516364953")
)

// FrobeniusCoeff returns the coefficient for the given Frobenius power
// (1..3) and tower coordinate (1..5). Code that lowers Frobenius maps
// to explicit multiplications folds these as constants.
func FrobeniusCoeff(power, coord int) E2 {
	table := [3][5]E2{
		{nonResidue1Pow1, nonResidue1Pow2, nonResidue1Pow3, nonResidue1Pow4, nonResidue1Pow5},
		{nonResidue2Pow1, nonResidue2Pow2, nonResidue2Pow3, nonResidue2Pow4, nonResidue2Pow5},
		{nonResidue3Pow1, nonResidue3Pow2, nonResidue3Pow3, nonResidue3Pow4, nonResidue3Pow5},
	}
	return table[power-1][coord-1]
}

func (z *E2) MulByNonResidue1Power1(x *E2) *E2 { return z.Mul(x, &nonResidue1Pow1) }
func (z *E2) MulByNonResidue1Power2(x *E2) *E2 { return z.Mul(x, &nonResidue1Pow2) }
func (z *E2) MulByNonResidue1Power3(x *E2) *E2 { return z.Mul(x, &nonResidue1Pow3) }
func (z *E2) MulByNonResidue1Power4(x *E2) *E2 { return z.Mul(x, &nonResidue1Pow4) }
func (z *E2) MulByNonResidue1Power5(x *E2) *E2 { return z.Mul(x, &nonResidue1Pow5) }

func (z *E2) MulByNonResidue2Power1(x *E2) *E2 { return z.MulByElement(x, &nonResidue2Pow1.A0) }
func (z *E2) MulByNonResidue2Power2(x *E2) *E2 { return z.MulByElement(x, &nonResidue2Pow2.A0) }
func (z *E2) MulByNonResidue2Power3(x *E2) *E2 { return z.MulByElement(x, &nonResidue2Pow3.A0) }
func (z *E2) MulByNonResidue2Power4(x *E2) *E2 { return z.MulByElement(x, &nonResidue2Pow4.A0) }
func (z *E2) MulByNonResidue2Power5(x *E2) *E2 { return z.MulByElement(x, &nonResidue2Pow5.A0) }

func (z *E2) MulByNonResidue3Power1(x *E2) *E2 { return z.Mul(x, &nonResidue3Pow1) }
func (z *E2) MulByNonResidue3Power2(x *E2) *E2 { return z.Mul(x, &nonResidue3Pow2) }
func (z *E2) MulByNonResidue3Power3(x *E2) *E2 { return z.Mul(x, &nonResidue3Pow3) }
func (z *E2) MulByNonResidue3Power4(x *E2) *E2 { return z.Mul(x, &nonResidue3Pow4) }
func (z *E2) MulByNonResidue3Power5(x *E2) *E2 { return z.Mul(x, &nonResidue3Pow5) }
